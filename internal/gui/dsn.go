package gui

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
)

const defaultSqliteFile = "local-pokedex.db"

// dbFields lists the form inputs each database type asks for.
func dbFields(dbType string) []string {
	if dbType == "sqlite" {
		return []string{"File Name"}
	}
	return []string{"Username", "Password", "Host", "Port", "Database"}
}

// sqliteDSN always enables foreign keys; the catalog relies on them to
// refuse deleting referenced rows.
func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// buildDSN turns the wizard inputs into a connection string for dbType.
func buildDSN(dbType string, values []string) (string, error) {
	fields := dbFields(dbType)
	if len(values) != len(fields) {
		return "", fmt.Errorf("expected %d values for %s, got %d", len(fields), dbType, len(values))
	}
	for i, name := range fields {
		if strings.TrimSpace(values[i]) == "" {
			return "", fmt.Errorf("%s: is required", name)
		}
	}

	if dbType == "sqlite" {
		return sqliteDSN(values[0]), nil
	}

	port, err := strconv.Atoi(values[3])
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("Port: input is out of range (1 - 65535)")
	}
	addr := net.JoinHostPort(values[2], values[3])

	switch dbType {
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(values[0], values[1]),
			Host:   addr,
			Path:   "/" + values[4],
		}
		return u.String(), nil
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = values[0]
		cfg.Passwd = values[1]
		cfg.Net = "tcp"
		cfg.Addr = addr
		cfg.DBName = values[4]
		// Audit columns are scanned into time.Time.
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	}

	return "", fmt.Errorf("unsupported database type %q", dbType)
}

// splitDSN pre-fills the wizard from an existing connection string. Values
// that cannot be recovered are left blank.
func splitDSN(dbType, dsn string) []string {
	values := make([]string, len(dbFields(dbType)))

	switch dbType {
	case "sqlite":
		values[0] = defaultSqliteFile
		if rest, ok := strings.CutPrefix(dsn, "file:"); ok {
			if path, _, _ := strings.Cut(rest, "?"); path != "" {
				values[0] = path
			}
		}
	case "postgres":
		if conf, err := pgx.ParseConfig(dsn); err == nil && dsn != "" {
			values[0] = conf.User
			values[1] = conf.Password
			values[2] = conf.Host
			values[3] = strconv.FormatUint(uint64(conf.Port), 10)
			values[4] = conf.Database
		}
	case "mysql":
		if conf, err := mysql.ParseDSN(dsn); err == nil && dsn != "" {
			values[0] = conf.User
			values[1] = conf.Passwd
			if host, port, err := net.SplitHostPort(conf.Addr); err == nil {
				values[2] = host
				values[3] = port
			}
			values[4] = conf.DBName
		}
	}

	return values
}

// describeDSN renders a connection string for the review page with the
// password masked.
func describeDSN(dbType, dsn string) string {
	values := splitDSN(dbType, dsn)

	switch dbType {
	case "sqlite":
		return fmt.Sprintf("Type: Sqlite\nFile: %s", values[0])
	case "postgres", "mysql":
		if values[2] == "" {
			return "Failed to parse database connection string"
		}
		return fmt.Sprintf("Type: %s\nUser: %s, Password: %s\nHost: %s, Port: %s\nDB Name: %s",
			dbType, values[0], strings.Repeat("*", len(values[1])), values[2], values[3], values[4])
	}

	return "No database configured"
}
