// Package hover decides when a patient detail preview is shown while
// browsing, and where it is placed.
//
// A Controller is a small state machine:
//
//	Idle --EnterRow--> Previewing --LeaveRow--> PendingHide --timer--> Idle
//	                        ^                        |
//	                        +------EnterDetail-------+
//
// Leaving the row arms a hide timer instead of hiding at once, so the
// pointer can cross the gap onto the preview card without it flickering
// away. At most one timer is armed at any time; every arm cancels the
// previous one first. Close cancels the timer and detaches the controller.
//
// Position is a pure function used by the controller to anchor the card
// next to the pointer inside the viewport.
package hover
