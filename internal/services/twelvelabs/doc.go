// Package twelvelabs is a small client for the video-understanding API that
// produces classification replies.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.GenerateText: ask a prompt about one indexed video, receive free text.
// Client.ListVideos: enumerate the videos of an index (follows pagination).
// Client.HealthCheck: verify the API key.
//
// Uploading videos and polling indexing tasks are deliberately absent; videos
// are indexed out of band and referenced by id.
//
// # Retry Behaviour
//
// Requests are retried on HTTP 408/429/5xx and network timeouts with
// exponential backoff (base 2s, max 30s, up to 4 attempts by default),
// honouring Retry-After. Context cancellation aborts retries immediately.
package twelvelabs
