// Package materialize creates the directories and files of a scaffolded
// project. Every operation is idempotent where the lifecycle needs it to be
// and prints one status line per path it touches, so repeated runs show
// "[SKIP] ... already exists" instead of failing.
package materialize
