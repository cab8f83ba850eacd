// Package hash provides keyed one-way hashing for values that must be
// comparable but never stored in the clear, such as cached one-time codes.
package hash
