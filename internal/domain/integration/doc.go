// Package integration contains the Robaws integration context.
//
// Key concepts:
//   - ExtraSchema / WrapField: the typed extra-field schema of a Robaws offer
//   - Mapper: turns quotation requests and extraction data into OfferPayload
//   - RobawsClient: port interface for the Robaws CRM API
//
// The HTTP adapter for RobawsClient is in the infrastructure layer.
package integration
