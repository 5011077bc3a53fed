package version

import "fmt"

const ServiceName = "symbol-faucet"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type VersionInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func GetVersion() VersionInfo {
	return VersionInfo{
		Service: ServiceName,
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", v.Service, v.Version, v.Commit, v.Date)
}
