package cmd

import (
	"github.com/Brownbull/ayni-be/infra"
	"github.com/Brownbull/ayni-be/utils"
)

func pgConfigFromEnv() infra.PgConfig {
	return infra.PgConfig{
		ConnectionString:    utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:            utils.GetEnv("PG_DATABASE", "ayni"),
		DbConnectWithSocket: utils.GetEnv("PG_CONNECT_WITH_SOCKET", false),
		Hostname:            utils.GetEnv("PG_HOSTNAME", ""),
		Password:            utils.GetEnv("PG_PASSWORD", ""),
		Port:                utils.GetEnv("PG_PORT", "5432"),
		User:                utils.GetEnv("PG_USER", ""),
		MaxPoolConnections:  utils.GetEnv("PG_MAX_POOL_SIZE", infra.MAX_CONNECTIONS),
		SslMode:             utils.GetEnv("PG_SSL_MODE", "prefer"),
	}
}
