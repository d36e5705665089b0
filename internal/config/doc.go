// Package config loads the riverwatch YAML configuration: listener port,
// simulation timing, client reconnect policy, scoring rules and the seed
// site list. Load fills defaults and validates; Watch hot-reloads the file
// so scoring rules can be tuned without a restart.
package config
