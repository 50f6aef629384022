package providers

import (
	"database/sql"
	"fmt"
	"minedash/internal/structures"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

func MySQLDSN(conf structures.MySQLConfig) string {
	cfg := mysql.NewConfig()
	cfg.User = conf.User
	cfg.Passwd = conf.Password
	cfg.Net = "tcp"
	port := conf.Port
	if port == 0 {
		port = 3306
	}
	cfg.Addr = conf.Host + ":" + strconv.Itoa(port)
	cfg.DBName = conf.DBName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// NewDatabaseProvider opens the MySQL pool. It returns a nil handle when the
// in-memory storage driver is configured.
func NewDatabaseProvider(conf *structures.Config, logger Logger) (*sql.DB, func(), error) {
	if conf.Storage.Driver != "mysql" {
		return nil, func() {}, nil
	}

	db, err := sql.Open("mysql", MySQLDSN(conf.MySQL))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open database: %w", err)
	}
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(50)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("unable to reach database: %w", err)
	}

	logger.Infof(TypeApp, "Connected to MySQL %s/%s", conf.MySQL.Host, conf.MySQL.DBName)
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}
