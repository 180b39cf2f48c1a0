// Package http provides HTTP handlers and middleware for the availability API.
//
// The router exposes the following endpoints:
//   - GET /users: lists every tracked user with their cached status and, for
//     users with a resolvable timezone, their current local wall clock.
//   - GET /users/{id}: returns one user.
//   - PUT /users/{id}/timezone: sets the user's IANA timezone. Body: {"timezone"}.
//   - PUT /users/{id}/status: sets an explicit status. Body: {"status"} with one
//     of green, yellow, or red. The periodic engine pass may overwrite it.
//   - GET /users/{id}/schedule: lists the user's weekly entries Monday first.
//   - PUT /users/{id}/schedule: upserts one day's window. Body:
//     {"day","start","end","status"} with HH:MM times in the user's local zone.
//   - DELETE /users/{id}/schedule: clears the schedule, resetting every day to
//     a green entry built from the default windows when those exist.
//   - GET /users/{id}/schedule/view?viewer=: renders the schedule into the
//     viewer's timezone, chunked for transport.
//   - GET /users/{id}/default, PUT /users/{id}/default: the fallback working
//     windows exchanged as {"weekday_start","weekday_end","weekend_start","weekend_end"}.
//     A user without stored windows reads back as a null default, not an error.
//   - GET /schedules/view?viewer=: renders every user's schedule for the viewer.
//
// The acting principal comes from the X-User-ID and X-User-Admin headers set
// by the chat gateway; mutations are limited to the subject themselves or an
// administrator. Request/response DTOs live alongside their respective
// handlers so tests and documentation share the same ground truth.
package http
