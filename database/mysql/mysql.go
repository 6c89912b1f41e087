package mysql

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

func (c connection) dsn() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}

// New opens the mysql master/replicas cluster for the ledger.
func New(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Master.dsn()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.LogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open master mysql")
	}

	replicas := make([]gorm.Dialector, 0, len(cfg.Slaves))
	for _, slave := range cfg.Slaves {
		replicas = append(replicas, mysql.Open(slave.dsn()))
	}

	resolverCfg := dbresolver.Config{
		Sources:  []gorm.Dialector{mysql.Open(cfg.Master.dsn())},
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}
	if err := db.Use(dbresolver.Register(resolverCfg).
		SetConnMaxIdleTime(time.Hour).
		SetConnMaxLifetime(24 * time.Hour).
		SetMaxIdleConns(cfg.ConnCfg.MaxIdleConns).
		SetMaxOpenConns(cfg.ConnCfg.MaxOpenConns),
	); err != nil {
		return nil, err
	}

	return db, nil
}
