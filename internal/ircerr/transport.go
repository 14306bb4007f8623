package ircerr

const (
	codeTransportAuthRequired = iota + 1
	codeTransportInvalidAuth
	codeTransportInvalidPort
	codeTransportInvalidAddress
	codeTransportInvalidHostname
	codeTransportInvalidPath
	codeTransportInvalidFamily
	codeTransportInvalidCertificate
	codeTransportInvalidPrivateKey
	codeTransportSSLDisabled
	codeTransportNotSupported
)

func TransportAuthRequired() *Error {
	return New(CategoryTransport, codeTransportAuthRequired, "authentication required")
}

func TransportInvalidAuth() *Error {
	return New(CategoryTransport, codeTransportInvalidAuth, "invalid authentication")
}

func TransportInvalidPort() *Error {
	return New(CategoryTransport, codeTransportInvalidPort, "invalid port")
}

func TransportInvalidAddress() *Error {
	return New(CategoryTransport, codeTransportInvalidAddress, "invalid address")
}

func TransportInvalidHostname() *Error {
	return New(CategoryTransport, codeTransportInvalidHostname, "invalid hostname")
}

func TransportInvalidPath() *Error {
	return New(CategoryTransport, codeTransportInvalidPath, "invalid path")
}

func TransportInvalidFamily() *Error {
	return New(CategoryTransport, codeTransportInvalidFamily, "invalid address family")
}

func TransportInvalidCertificate() *Error {
	return New(CategoryTransport, codeTransportInvalidCertificate, "invalid certificate")
}

func TransportInvalidPrivateKey() *Error {
	return New(CategoryTransport, codeTransportInvalidPrivateKey, "invalid private key")
}

func TransportSSLDisabled() *Error {
	return New(CategoryTransport, codeTransportSSLDisabled, "ssl support is disabled")
}

func TransportNotSupported() *Error {
	return New(CategoryTransport, codeTransportNotSupported, "not supported")
}
