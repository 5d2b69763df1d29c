// Package config handles loading and parsing of configuration from YAML files,
// a .env file and environment variables. It defines the gateway configuration
// structure: listen settings, the upstream health-check endpoint and its timeout,
// method and CORS policy, the optional upstream monitor, metrics and logging.
package config
