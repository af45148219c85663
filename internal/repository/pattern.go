package repository

import (
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitute-api/internal/models"
)

// decodePattern turns a stored weekly pattern into its typed form. Unreadable blobs are
// logged and treated as empty.
func decodePattern(logger *zap.Logger, raw types.JSONText, owner string) models.WeeklyPattern {
	if len(raw) == 0 {
		return models.WeeklyPattern{}
	}
	var pattern models.WeeklyPattern
	if err := json.Unmarshal(raw, &pattern); err != nil {
		logger.Warn("undecodable weekly pattern", zap.String("owner", owner), zap.Error(err))
		return models.WeeklyPattern{}
	}
	return pattern
}

func encodePattern(pattern models.WeeklyPattern) (types.JSONText, error) {
	if pattern == nil {
		pattern = models.WeeklyPattern{}
	}
	raw, err := json.Marshal(pattern)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
