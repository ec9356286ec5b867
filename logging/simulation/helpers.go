package simulation

import (
	"context"

	"github.com/exotic24-7/zephyrax.io/logging"
)

const (
	// EventTickBudgetOverrun is emitted when the simulation loop exceeds the allotted tick budget.
	EventTickBudgetOverrun logging.EventType = "simulation.tick_budget_overrun"
	// EventEquipHookFailed is emitted when an equip hook returns an error.
	EventEquipHookFailed logging.EventType = "equip.hook_failed"
	// EventCommandRejected is emitted when a queued or chat command is refused.
	EventCommandRejected logging.EventType = "command.rejected"
)

// TickBudgetOverrunPayload captures timing details for a tick budget breach.
type TickBudgetOverrunPayload struct {
	DurationMillis int64   `json:"durationMillis"`
	BudgetMillis   int64   `json:"budgetMillis"`
	Ratio          float64 `json:"ratio"`
	Streak         uint64  `json:"streak"`
}

// TickBudgetOverrun publishes a warning when the simulation exceeds the configured tick budget.
func TickBudgetOverrun(ctx context.Context, pub logging.Publisher, tick uint64, payload TickBudgetOverrunPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventTickBudgetOverrun,
		Tick:     tick,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// EquipHookFailedPayload identifies the failing hook.
type EquipHookFailedPayload struct {
	Hook   string `json:"hook"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// EquipHookFailed publishes a non-fatal hook failure.
func EquipHookFailed(ctx context.Context, pub logging.Publisher, tick uint64, payload EquipHookFailedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEquipHookFailed,
		Tick:     tick,
		Actor:    logging.PlayerRef(),
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
		Extra:    extra,
	})
}

// CommandRejectedPayload explains a refused command.
type CommandRejectedPayload struct {
	Command string `json:"command"`
	Reason  string `json:"reason"`
}

// CommandRejected publishes a refused command.
func CommandRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CommandRejectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCommandRejected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
		Extra:    extra,
	})
}
