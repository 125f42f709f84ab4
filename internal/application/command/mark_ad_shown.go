package command

import (
	"context"

	"github.com/bivex/habitpass/internal/domain/service"
)

// MarkAdShownCommand records that an interstitial was displayed
type MarkAdShownCommand struct {
	ads *service.AdGateService
}

// NewMarkAdShownCommand creates a new mark ad shown command
func NewMarkAdShownCommand(ads *service.AdGateService) *MarkAdShownCommand {
	return &MarkAdShownCommand{ads: ads}
}

// Execute executes the mark ad shown command
func (c *MarkAdShownCommand) Execute(ctx context.Context, userID string) error {
	uid, err := parseUserID(userID)
	if err != nil {
		return err
	}
	return c.ads.MarkAdShown(ctx, uid)
}
