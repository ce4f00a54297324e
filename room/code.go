package room

import "github.com/google/uuid"

// CodeLength is the number of characters in a shareable room code
const CodeLength = 6

func generateRoomId() string {
	return uuid.New().String()[:CodeLength]
}
