package cluster

// Wire shapes shared by the daemon API and the forwarding client.

// OwnerResponse answers "does this node hold the chat singleton".
type OwnerResponse struct {
	Node  string `json:"node"`
	Owner bool   `json:"owner"`
}

// HealthResponse answers a monitor ping.
type HealthResponse struct {
	Node string `json:"node"`
	OK   bool   `json:"ok"`
}

// ErrorResponse carries a domain error kind across nodes.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateRoomRequest creates a chat room on the holder.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// RoomResponse returns the created room name.
type RoomResponse struct {
	Name string `json:"name"`
}

// SendRequest appends a message to a room on the holder.
type SendRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}
