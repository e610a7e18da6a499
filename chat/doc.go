// Package chat maintains the shared group-chat transcript and fans every
// newly appended batch of messages out to each participating agent's private
// channel exactly once, in append order. An activity guard serializes
// conflicting mutations: starting a second add/invoke while one is active
// fails fast instead of interleaving.
package chat
