// Package parking mounts the JSON API of the parking service on a chi router.
//
// Every response is an [Envelope]. Failures carry a stable error_code taken
// from the domain error mapping; business errors are 404 or 409, validation
// errors 422 with per-field messages and consistency faults 500 with a
// generic message. Malformed requests are rejected with 400 before they
// reach the orchestrator.
//
// Routes:
//
//	GET  /sessions/                 search sessions
//	POST /sessions/enter            {"license_plate","vehicle_class"}
//	POST /sessions/exit             {"license_plate"}
//	POST /sessions/{id}/complete
//	POST /sessions/{id}/cancel
//	GET  /availability
//	GET  /audit
//	GET  /reports/revenue           ?from=&to=
//	GET  /rates/                    ?vehicle_class=
//	POST /rates/
//	GET  /rates/quote               ?vehicle_class=&entry=&exit=
//	POST /rates/{id}/expire         {"effective_until"}
package parking
