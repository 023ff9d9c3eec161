// Package payments wraps the remote billing provider behind a typed
// Provider interface.
//
// The rest of the codebase never imports the Stripe SDK directly: it works
// with the result structs defined here, which carry only the fields this
// service actually reads. StripeProvider is the production implementation;
// tests substitute lightweight fakes.
package payments
