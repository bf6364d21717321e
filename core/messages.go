package core

var (
	EmptyMessage        = ""
	ChangesSavedMessage = "changes saved"
)

func (c *Canvas) DispatchMessage(args ...string) {
	if len(args) == 0 {
		return
	}
	id := args[0]
	value := id
	if len(args) > 1 {
		value = args[1]
	}
	select {
	case c.updateSignal <- MessageSignal{id, value}:
	default:
		c.logger.Warn("channel is full, unable to send message signal", "id", id)
	}
}
