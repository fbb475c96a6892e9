// Package logkey defines the structured log attribute keys used across the
// service.
package logkey

const (
	Service   = "service"
	Component = "component"
	Error     = "error"

	OrderID          = "order.id"
	OrderProjectName = "order.project_name"

	ProvisionURL      = "provision.url"
	ProvisionStatus   = "provision.status"
	ProvisionResponse = "provision.response"
)
