// Package rates prices parking stays.
//
// A stay is billed in whole minutes, rounded up. Every rule of the vehicle
// class that is effective at the entry time is priced and the cheapest one
// wins:
//
//	FLAT    amount
//	HOURLY  ceil(minutes / 60) * amount
//	DAILY   ceil(minutes / 1440) * amount
//
// The package also manages the rate card: rules are immutable once stored
// except for their expiry.
package rates
