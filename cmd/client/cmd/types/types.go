// Package types содержит ключи контекста, разделяемые командами CLI.
package types

type contextKey string

// ClientAppKey — ключ, по которому команды достают *client.App из контекста
const ClientAppKey contextKey = "leafwise-app"
