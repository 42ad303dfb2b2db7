// Package lib groups integrations that sit beside the request path: the
// Asynq background jobs (lib/job) and the Resend email client (lib/email).
package lib
