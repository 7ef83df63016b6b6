// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// PlanRepoFactory provides access to the plan repository within a transaction.
	PlanRepoFactory interface {
		PlanRepository() ports.PlanRepository
	}

	// ScheduleRepoFactory provides access to the schedule repository within a transaction.
	ScheduleRepoFactory interface {
		ScheduleRepository() ports.ScheduleRepository
	}

	// StatusRepoFactory provides access to the tracking status repository within a transaction.
	StatusRepoFactory interface {
		StatusRepository() ports.StatusRepository
	}

	// ConfirmationRepoFactory provides access to the confirmation repository within a transaction.
	ConfirmationRepoFactory interface {
		ConfirmationRepository() ports.ConfirmationRepository
	}

	// PlanUoW manages transactions for plan-only operations.
	PlanUoW interface {
		TxManager
		PlanRepoFactory
	}

	// PlanUoWFactory creates new plan unit of work instances.
	PlanUoWFactory interface {
		Create() PlanUoW
	}

	// ScheduleUoW manages transactions for scheduling, which reads the plan
	// and writes the schedule together with its initial tracking record.
	ScheduleUoW interface {
		TxManager
		PlanRepoFactory
		ScheduleRepoFactory
		StatusRepoFactory
	}

	// ScheduleUoWFactory creates new schedule unit of work instances.
	ScheduleUoWFactory interface {
		Create() ScheduleUoW
	}

	// TrackingUoW manages transactions for tracking refreshes and
	// cancellation, which mutate the schedule and its tracking record and
	// read the plan for the customer reference.
	TrackingUoW interface {
		TxManager
		PlanRepoFactory
		ScheduleRepoFactory
		StatusRepoFactory
	}

	// TrackingUoWFactory creates new tracking unit of work instances.
	TrackingUoWFactory interface {
		Create() TrackingUoW
	}

	// ConfirmationUoW manages transactions for confirmation, which reads the
	// schedule and tracking record and writes the confirmation.
	ConfirmationUoW interface {
		TxManager
		ScheduleRepoFactory
		StatusRepoFactory
		ConfirmationRepoFactory
	}

	// ConfirmationUoWFactory creates new confirmation unit of work instances.
	ConfirmationUoWFactory interface {
		Create() ConfirmationUoW
	}
)
