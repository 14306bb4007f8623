package ircerr

const (
	codeHookInvalidIdentifier = iota + 1
	codeHookNotFound
	codeHookInvalidPath
	codeHookExecError
	codeHookAlreadyExists
)

func HookInvalidIdentifier(id string) *Error {
	return New(CategoryHook, codeHookInvalidIdentifier, "invalid hook identifier: "+id)
}

func HookNotFound(id string) *Error {
	return New(CategoryHook, codeHookNotFound, "hook not found: "+id)
}

func HookInvalidPath(path string) *Error {
	return New(CategoryHook, codeHookInvalidPath, "invalid hook path: "+path)
}

func HookExecError(id string, cause error) *Error {
	msg := "hook exec error: " + id
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return New(CategoryHook, codeHookExecError, msg)
}

func HookAlreadyExists(id string) *Error {
	return New(CategoryHook, codeHookAlreadyExists, "hook already exists: "+id)
}
