// Package commands defines the symbol-faucet CLI.
//
// Commands
//
//   - serve      Bind to a healthy node and serve the faucet API and metrics
//   - nodes      List candidate nodes from the statistics service
//   - account    Print the faucet account and its balance
//   - version    Print build information
//
// Every command except version reads the YAML file named by --config and
// initialises the process logger from its global section.
package commands
