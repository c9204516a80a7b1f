package redis

import (
	"fmt"

	"github.com/jmhart/chatroom-go/internal/model"
)

// Key prefix for all chatroom data
const keyPrefix = "chatroom"

// userIDCounterKey returns the Redis key for the user ID allocator
func userIDCounterKey() string {
	return fmt.Sprintf("%s:user:next_id", keyPrefix)
}

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the name -> user_id index
func usernameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, name)
}

// messageIDCounterKey returns the Redis key for the message ID allocator
func messageIDCounterKey() string {
	return fmt.Sprintf("%s:message:next_id", keyPrefix)
}

// messageKey returns the Redis key for a Message
func messageKey(id model.MessageID) string {
	return fmt.Sprintf("%s:message:%d", keyPrefix, id)
}

// messageIndexKey returns the Redis key for the ZSET ordering messages by
// creation time
func messageIndexKey() string {
	return fmt.Sprintf("%s:idx:messages", keyPrefix)
}
