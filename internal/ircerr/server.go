package ircerr

const (
	codeServerNotFound = iota + 1
	codeServerInvalidIdentifier
	codeServerNotConnected
	codeServerAlreadyConnected
	codeServerAlreadyExists
	codeServerInvalidPort
	codeServerInvalidReconnectDelay
	codeServerInvalidHostname
	codeServerInvalidChannel
	codeServerInvalidMode
	codeServerInvalidNickname
	codeServerInvalidUsername
	codeServerInvalidRealname
	codeServerInvalidPassword
	codeServerInvalidPingTimeout
	codeServerInvalidCTCPVersion
	codeServerInvalidCommandChar
	codeServerInvalidMessage
	codeServerSSLDisabled
	codeServerInvalidFamily
)

func ServerNotFound(id string) *Error {
	return New(CategoryServer, codeServerNotFound, "server not found: "+id)
}

func ServerInvalidIdentifier(id string) *Error {
	return New(CategoryServer, codeServerInvalidIdentifier, "invalid server identifier: "+id)
}

func ServerNotConnected(id string) *Error {
	return New(CategoryServer, codeServerNotConnected, "server not connected: "+id)
}

func ServerAlreadyConnected(id string) *Error {
	return New(CategoryServer, codeServerAlreadyConnected, "server already connected: "+id)
}

func ServerAlreadyExists(id string) *Error {
	return New(CategoryServer, codeServerAlreadyExists, "server already exists: "+id)
}

func ServerInvalidPort() *Error {
	return New(CategoryServer, codeServerInvalidPort, "invalid port")
}

func ServerInvalidReconnectDelay() *Error {
	return New(CategoryServer, codeServerInvalidReconnectDelay, "invalid reconnect delay")
}

func ServerInvalidHostname() *Error {
	return New(CategoryServer, codeServerInvalidHostname, "invalid hostname")
}

func ServerInvalidChannel() *Error {
	return New(CategoryServer, codeServerInvalidChannel, "invalid channel")
}

func ServerInvalidMode() *Error {
	return New(CategoryServer, codeServerInvalidMode, "invalid mode")
}

func ServerInvalidNickname() *Error {
	return New(CategoryServer, codeServerInvalidNickname, "invalid nickname")
}

func ServerInvalidUsername() *Error {
	return New(CategoryServer, codeServerInvalidUsername, "invalid username")
}

func ServerInvalidRealname() *Error {
	return New(CategoryServer, codeServerInvalidRealname, "invalid realname")
}

func ServerInvalidPassword() *Error {
	return New(CategoryServer, codeServerInvalidPassword, "invalid password")
}

func ServerInvalidPingTimeout() *Error {
	return New(CategoryServer, codeServerInvalidPingTimeout, "invalid ping timeout")
}

func ServerInvalidCTCPVersion() *Error {
	return New(CategoryServer, codeServerInvalidCTCPVersion, "invalid ctcp version")
}

func ServerInvalidCommandChar() *Error {
	return New(CategoryServer, codeServerInvalidCommandChar, "invalid command character")
}

func ServerInvalidMessage() *Error {
	return New(CategoryServer, codeServerInvalidMessage, "invalid message")
}

func ServerSSLDisabled() *Error {
	return New(CategoryServer, codeServerSSLDisabled, "ssl support is disabled")
}

func ServerInvalidFamily() *Error {
	return New(CategoryServer, codeServerInvalidFamily, "at least one of ipv4 or ipv6 must be enabled")
}
