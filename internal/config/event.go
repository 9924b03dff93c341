package config

import "github.com/invoflow/invoflow/internal/types"

type EventConfig struct {
	PublishDestination types.PublishDestination `mapstructure:"publish_destination"`
	Topic              string
}
