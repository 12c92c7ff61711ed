// Package tool defines the fixed catalog of marketing-task capabilities the
// orchestrator can dispatch to. Each tool declares a natural-language
// description and a parameter schema; dispatch only registers intent and
// hands back an acknowledgement plus a task ID, it never performs the
// underlying content-generation work.
package tool
