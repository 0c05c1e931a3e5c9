// Package assist proxies editor chat requests to an OpenAI-compatible
// completion endpoint, with a per-caller cooldown so a single browser cannot
// drain the upstream quota.
package assist
