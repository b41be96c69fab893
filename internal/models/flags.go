package models

type Flags struct {
	Mode       string `short:"m" long:"mode" env:"MODE" required:"true" description:"The mode Local Pokedex is running in: cli/docker" default:"cli"`
	Config     string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to the configuration file" default:"config.json"`
	IssueToken string `long:"issue-token" env:"ISSUE_TOKEN" description:"Print an admin bearer token for the given user id and exit"`
	Seed       bool   `long:"seed" env:"SEED" description:"Import the configured seed file before starting the HTTP server"`
	LogFormat  string `long:"log-format" env:"LOG_FORMAT" description:"Log output format: logfmt/json" default:"logfmt"`
}
