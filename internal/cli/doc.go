// Package cli implements the stackdeck command-line interface.
//
// # Command Structure
//
//	stackdeck                 - Run the dashboard
//	stackdeck config init     - Write a config file with defaults
//	stackdeck config show     - Print the effective configuration
//	stackdeck completion      - Shell completion scripts
//	stackdeck version         - Build information
//
// # Flag Handling
//
// Flags that mirror config values (--interval, --docker, --kubectl,
// --context, --no-color) are persistent on the root command. They only
// override the config file when set explicitly, so a value in
// .stackdeck.yaml wins over a flag's default.
//
// The dashboard needs a terminal. Logs go to --log-file because the TUI
// owns stdout; STACKDECK_DEBUG=1 adds debug lines.
package cli
