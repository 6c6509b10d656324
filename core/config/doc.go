// Package config loads the application configuration.
//
// Values come from, in increasing priority: the `default` struct tags of every
// section, a .env file in the working directory, and environment variables. Nested keys
// map to upper-case variables joined by underscores, so compare.queue_size is read from
// COMPARE_QUEUE_SIZE and dispatch.webhook.url from DISPATCH_WEBHOOK_URL.
//
// # Configuration Structure
//
//   - Server: listen port, API key and shutdown budget
//   - Log: level and format
//   - Database: the result store and connection registry (sqlite or mysql)
//   - Storage: S3/MinIO bucket used to publish exports
//   - Compare: timeouts, queue size, sort mode and concurrency of comparison runs
//   - Dispatch: the webhook or MongoDB sink differences are forwarded to
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Compare.SortMode)
package config
