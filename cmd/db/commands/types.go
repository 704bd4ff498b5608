package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/doom2286/Foxcom/internal/database"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var (
	ErrNameRequired   = errors.New("NAME argument required")
	ErrUserIDRequired = errors.New("USER_ID argument required")
	ErrValueRequired  = errors.New("USER_ID and VALUE arguments required")
	ErrInvalidUserID  = errors.New("invalid user ID")
)

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	DB       database.Client
	Migrator *migrate.Migrator
	Logger   *zap.Logger
}

// userIDArg parses the positional argument at index i as a Discord user ID.
func userIDArg(c *cli.Command, i int) (uint64, error) {
	id, err := strconv.ParseUint(c.Args().Get(i), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUserID, c.Args().Get(i))
	}

	return id, nil
}
