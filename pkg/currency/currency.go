package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Unit represents a currency unit
type Unit struct {
	Name         string
	Symbol       string
	Divisibility int
	Description  string
	ConversionTo map[string]float64 // Conversion rates to other units
}

// Registry keeps the known currency units keyed by upper-cased name.
type Registry struct {
	mu    sync.RWMutex
	units map[string]*Unit
}

var (
	// DefaultXYM is the Symbol network currency in relative (whole coin) units.
	DefaultXYM = &Unit{
		Name:         "XYM",
		Symbol:       "XYM",
		Divisibility: 6,
		Description:  "Symbol",
		ConversionTo: map[string]float64{"MICROXYM": 1e6},
	}

	// DefaultMicroXYM is the absolute amount as stored on chain.
	DefaultMicroXYM = &Unit{
		Name:         "MICROXYM",
		Symbol:       "μXYM",
		Divisibility: 0,
		Description:  "Symbol absolute amount",
		ConversionTo: map[string]float64{"XYM": 1e-6},
	}
)

func NewRegistry() *Registry {
	return &Registry{
		units: make(map[string]*Unit),
	}
}

// NewDefaultRegistry returns a registry holding XYM and MICROXYM.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(DefaultXYM)
	r.MustRegister(DefaultMicroXYM)
	return r
}

// Register adds a new currency unit to the registry
func (r *Registry) Register(unit *Unit) (*Unit, error) {
	if unit.Name == "" {
		return nil, fmt.Errorf("currency unit name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	normalizedName := strings.ToUpper(unit.Name)
	if _, exists := r.units[normalizedName]; exists {
		return nil, fmt.Errorf("currency unit %s already registered", normalizedName)
	}

	r.units[normalizedName] = unit
	return unit, nil
}

func (r *Registry) MustRegister(unit *Unit) *Unit {
	u, err := r.Register(unit)
	if err != nil {
		panic(err)
	}
	return u
}

func (r *Registry) Get(name string) (*Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	unit, exists := r.units[strings.ToUpper(name)]
	if !exists {
		return nil, fmt.Errorf("currency unit %s not found", name)
	}
	return unit, nil
}

// EnsureMosaicUnits registers an absolute/relative unit pair for a mosaic
// with the given divisibility. A pair already registered with the same
// divisibility is left untouched, a pair with another divisibility is replaced.
func (r *Registry) EnsureMosaicUnits(relativeName string, divisibility int) error {
	relativeName = strings.ToUpper(strings.TrimSpace(relativeName))
	if relativeName == "" {
		return fmt.Errorf("mosaic unit name cannot be empty")
	}
	if divisibility < 0 || divisibility > 6 {
		return fmt.Errorf("invalid mosaic divisibility %d", divisibility)
	}
	absoluteName := "MICRO" + relativeName

	r.mu.Lock()
	defer r.mu.Unlock()
	if unit, exists := r.units[relativeName]; exists && unit.Divisibility == divisibility {
		return nil
	}

	factor := math.Pow10(divisibility)
	symbol := relativeName
	if unit, exists := r.units[relativeName]; exists {
		symbol = unit.Symbol
	}
	r.units[relativeName] = &Unit{
		Name:         relativeName,
		Symbol:       symbol,
		Divisibility: divisibility,
		Description:  fmt.Sprintf("%s mosaic", relativeName),
		ConversionTo: map[string]float64{absoluteName: factor},
	}
	r.units[absoluteName] = &Unit{
		Name:         absoluteName,
		Symbol:       absoluteName,
		Description:  fmt.Sprintf("%s absolute amount", relativeName),
		ConversionTo: map[string]float64{relativeName: 1 / factor},
	}
	return nil
}

// Convert converts an amount from one currency unit to another
func (r *Registry) Convert(amount float64, from, to string) (float64, error) {
	fromUnit, err := r.Get(from)
	if err != nil {
		return 0, err
	}

	if strings.EqualFold(from, to) {
		return amount, nil
	}

	if rate, exists := fromUnit.ConversionTo[strings.ToUpper(to)]; exists {
		return amount * rate, nil
	}

	return 0, fmt.Errorf("no conversion rate found from %s to %s", from, to)
}

// ConvertAbsolute parses an on-chain absolute amount (decimal string) and
// converts it into the relative unit `to`.
func (r *Registry) ConvertAbsolute(amount string, to string) (float64, error) {
	raw, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid absolute amount %q: %w", amount, err)
	}
	return r.Convert(float64(raw), "MICRO"+strings.ToUpper(to), to)
}

func (u *Unit) String() string {
	return u.Symbol
}
