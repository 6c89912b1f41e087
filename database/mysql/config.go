package mysql

// Config represent root of mysql config
type Config struct {
	Master   connection   `yaml:"master" validate:"required"`
	Slaves   []connection `yaml:"slaves"`
	ConnCfg  connCfg      `yaml:"conn_cfg"`
	LogLevel int          `yaml:"log_level"`
}

type connection struct {
	Host     string `yaml:"host" validate:"required"`
	Port     uint   `yaml:"port" validate:"required"`
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password"`
	DBName   string `yaml:"db_name" validate:"required"`
}

type connCfg struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
}
