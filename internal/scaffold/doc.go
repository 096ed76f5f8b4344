// Package scaffold renders the text of every file and status banner the CLI
// generates from embedded templates: the Config Record, Settings and
// Migration Records, views, urls, the legacy app entry file, the module
// manifest and the welcome page.
package scaffold
