// Package commands defines the wizflow CLI.
//
// Commands
//
//   - run        Walk through the checkout wizard, interactively or from a script
//   - countries  List the phone country dictionary
//   - seed       Install the default delivery methods and accounts
//   - history    Show recorded sessions and their events
//
// # Implementation
//
// The root command loads the configuration and opens the storage before any
// subcommand runs, so handlers share one app value holding the logger, the
// stores and the password hasher.
package commands
