package ircerr

const (
	codePluginInvalidIdentifier = iota + 1
	codePluginNotFound
	codePluginExecError
	codePluginAlreadyExists
)

func PluginInvalidIdentifier(id string) *Error {
	return New(CategoryPlugin, codePluginInvalidIdentifier, "invalid plugin identifier: "+id)
}

func PluginNotFound(id string) *Error {
	return New(CategoryPlugin, codePluginNotFound, "plugin not found: "+id)
}

func PluginExecError(id string, cause error) *Error {
	msg := "plugin exec error: " + id
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return New(CategoryPlugin, codePluginExecError, msg)
}

func PluginAlreadyExists(id string) *Error {
	return New(CategoryPlugin, codePluginAlreadyExists, "plugin already exists: "+id)
}
