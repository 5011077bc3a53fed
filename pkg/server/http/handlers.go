package httpfiber

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/symbol/symbol-faucet/pkg/app"
	"github.com/symbol/symbol-faucet/pkg/logger"
	"github.com/symbol/symbol-faucet/pkg/statistics"
	"github.com/symbol/symbol-faucet/pkg/version"
)

func errorResponse(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// current writes a 503 and returns nil when no node is bound.
func (s *Server) current(c *fiber.Ctx) *app.App {
	current := s.provider.Current()
	if current == nil {
		_ = errorResponse(c, fiber.StatusServiceUnavailable, "faucet is not bound to a node")
	}
	return current
}

func (s *Server) readiness(c *fiber.Ctx) error {
	if s.provider.Current() == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "bootstrapping",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
	})
}

func (s *Server) version(c *fiber.Ctx) error {
	return c.JSON(version.GetVersion())
}

func (s *Server) health(c *fiber.Ctx) error {
	current := s.current(c)
	if current == nil {
		return nil
	}
	healthy := current.IsNodeHealth(c.UserContext())
	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"nodeUrl": current.NodeURL(),
		"healthy": healthy,
	})
}

func (s *Server) network(c *fiber.Ctx) error {
	current := s.current(c)
	if current == nil {
		return nil
	}
	ctx := c.UserContext()

	networkType, err := current.NetworkType(ctx)
	if err != nil {
		logger.Errorf("failed to get network type from %s: %v", current.NodeURL(), err)
		return errorResponse(c, fiber.StatusBadGateway, "failed to get network type")
	}
	generationHash, err := current.NetworkGenerationHash(ctx)
	if err != nil {
		logger.Errorf("failed to get generation hash from %s: %v", current.NodeURL(), err)
		return errorResponse(c, fiber.StatusBadGateway, "failed to get network generation hash")
	}
	epochAdjustment, err := current.EpochAdjustment(ctx)
	if err != nil {
		logger.Errorf("failed to get epoch adjustment from %s: %v", current.NodeURL(), err)
		return errorResponse(c, fiber.StatusBadGateway, "failed to get epoch adjustment")
	}

	return c.JSON(fiber.Map{
		"nodeUrl":               current.NodeURL(),
		"networkType":           networkType.String(),
		"networkIdentifier":     uint8(networkType),
		"networkGenerationHash": generationHash,
		"epochAdjustment":       epochAdjustment,
	})
}

func (s *Server) faucet(c *fiber.Ctx) error {
	current := s.current(c)
	if current == nil {
		return nil
	}
	ctx := c.UserContext()

	account, err := current.FaucetAccount(ctx)
	if err != nil {
		logger.Errorf("failed to derive faucet account: %v", err)
		return errorResponse(c, fiber.StatusBadGateway, "failed to derive faucet account")
	}

	response := fiber.Map{
		"address":     account.Address,
		"publicKey":   account.PublicKey,
		"networkType": account.NetworkType.String(),
	}
	balance, err := current.FaucetBalance(ctx)
	if err != nil {
		logger.Warnf("failed to get faucet balance: %v", err)
	} else {
		response["balance"] = balance
	}
	return c.JSON(response)
}

func (s *Server) nodes(c *fiber.Ctx) error {
	criteria := app.CriteriaFromConfig(s.cfg)

	if raw := c.Query("filter"); raw != "" {
		filter, err := statistics.ParseFilter(raw)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		criteria.Filter = filter
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "limit must be an integer")
		}
		criteria.Limit = limit
	}
	if raw := c.Query("ssl"); raw != "" {
		ssl, err := strconv.ParseBool(raw)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "ssl must be a boolean")
		}
		criteria.SSL = &ssl
	}
	if err := criteria.Validate(); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	nodes := app.GetNodeUrls(c.UserContext(), s.lister, criteria)
	return c.JSON(fiber.Map{
		"nodes": nodes,
		"count": len(nodes),
	})
}
