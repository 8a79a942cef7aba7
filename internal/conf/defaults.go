package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets default values for every configuration key
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("logging.defaultlevel", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.fileoutput.enabled", false)
	viper.SetDefault("logging.fileoutput.path", "logs/pokedex.log")
	viper.SetDefault("logging.fileoutput.level", "debug")

	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.sqlite.path", "pokedex.db")
	viper.SetDefault("database.mysql.host", "localhost")
	viper.SetDefault("database.mysql.port", 3306)
	viper.SetDefault("database.mysql.username", "")
	viper.SetDefault("database.mysql.password", "")
	viper.SetDefault("database.mysql.passwordfile", "")
	viper.SetDefault("database.mysql.database", "pokedex")

	viper.SetDefault("pokeapi.baseurl", "https://pokeapi.co/api/v2")
	viper.SetDefault("pokeapi.timeout", 15*time.Second)
	viper.SetDefault("pokeapi.cachettl", 10*time.Minute)
	viper.SetDefault("pokeapi.ratelimit", 20.0)
	viper.SetDefault("pokeapi.burst", 16)
	viper.SetDefault("pokeapi.maxretries", 3)
	viper.SetDefault("pokeapi.retrybackoff", 500*time.Millisecond)
	viper.SetDefault("pokeapi.useragent", "pokedex-go")

	viper.SetDefault("catalog.maxid", 1025)
	viper.SetDefault("catalog.batchsize", 8)
	viper.SetDefault("catalog.batchdelay", 250*time.Millisecond)
	viper.SetDefault("catalog.paldeastartid", 906)
	viper.SetDefault("catalog.paldeabatchsize", 16)
	viper.SetDefault("catalog.paldeabatchdelay", 100*time.Millisecond)
	viper.SetDefault("catalog.movelimit", 20)

	viper.SetDefault("query.cachettl", 5*time.Minute)

	viper.SetDefault("webserver.host", "")
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.debug", false)

	viper.SetDefault("security.jwtsecret", "")
	viper.SetDefault("security.jwtsecretfile", "")
	viper.SetDefault("security.issuer", "")

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")
}
