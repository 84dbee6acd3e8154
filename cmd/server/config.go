package main

import "time"

type Config struct {
	SessionBufferSize  int           `env:"SESSION_BUFFER_SIZE,required=true"`
	MaxFrameSize       int64         `env:"MAX_FRAME_SIZE,default=65536"`
	LimitNotifications *int          `env:"LIMIT_NOTIFICATIONS"`
	LimitMessages      *int          `env:"LIMIT_MESSAGES"`
	HeartbeatTimeout   time.Duration `env:"HEARTBEAT_TIMEOUT,required=true"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT,required=true"`
	StatsInterval      time.Duration `env:"STATS_INTERVAL,required=true"`
	GCInterval         time.Duration `env:"GC_INTERVAL,required=true"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,required=true"`
	TokenDuration      time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	JWTSecret          string        `env:"JWT_SECRET,required=true"`
	BadgerFilepath     string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel           string        `env:"LOG_LEVEL,required=true"`
	Host               string        `env:"HOST,default=localhost"`
	Port               int           `env:"PORT,default=8080"`
}
