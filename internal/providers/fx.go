package providers

import (
	"github.com/smallbiznis/helpdesk/internal/providers/pdf"
	"github.com/smallbiznis/helpdesk/internal/providers/slack"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
	slack.Module,
)
