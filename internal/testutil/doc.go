// Package testutil contains helper builders and scripted fakes used across
// tests to reduce boilerplate when constructing messages and simulating agent
// behavior. These helpers are intentionally minimal and are not intended for
// production usage.
package testutil
