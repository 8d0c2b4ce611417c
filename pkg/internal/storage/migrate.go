package storage

import (
	"fmt"

	"github.com/yeisme/scenevault/pkg/internal/model"
	dbc "github.com/yeisme/scenevault/pkg/internal/storage/db"
)

// AutoMigrate 迁移全部业务模型.
func AutoMigrate(client *dbc.Client) error {
	if client == nil {
		return fmt.Errorf("db client is nil")
	}

	return client.GetDB().AutoMigrate(
		&model.Entry{},
		&model.Settings{},
	)
}
