// Package system holds the kernel collaborators fed by completed frames:
// the notification pool, the real time clock and the application manager.
package system
