package order

import (
	"github.com/joshjon/kit/errtag"
)

type ErrTagNotFound struct{ errtag.NotFound }

func (ErrTagNotFound) Msg() string { return "Order not found" }

func (e ErrTagNotFound) Unwrap() error {
	return errtag.Tag[errtag.NotFound](e.Cause())
}

type ErrTagConflict struct{ errtag.Conflict }

func (ErrTagConflict) Msg() string { return "Order conflict" }

func (e ErrTagConflict) Unwrap() error {
	return errtag.Tag[errtag.Conflict](e.Cause())
}

// ErrTagProvisioningFailed is returned when the platform did not create the
// namespace for an Order. The Order remains persisted.
type ErrTagProvisioningFailed struct{ errtag.Unknown }

func (ErrTagProvisioningFailed) Msg() string { return "Failed to provision project namespace" }

func (e ErrTagProvisioningFailed) Unwrap() error {
	return errtag.Tag[errtag.Unknown](e.Cause())
}
