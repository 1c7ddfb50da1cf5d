// Package config loads typed configuration from environment variables with
// github.com/caarlos0/env/v11. A .env file in the working directory is read
// once through github.com/joho/godotenv before the first parse. Each config
// type is parsed once and cached for the lifetime of the process.
package config
