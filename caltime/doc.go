// Package caltime is the calendar-time engine of gopal: absolute
// moments (CalendarTime) and signed calendar amounts (RelativeTime)
// with microsecond resolution, a UTC offset, and a declared precision.
//
// Values parse from and format to CIM DATETIME and ISO 8601, compare at
// the coarser precision of the two operands, and support calendar
// arithmetic that steps years, months, days, hours, minutes and
// microseconds in that order. Only the years 1970 through 9999 are
// representable.
//
// The operating system is reached only through a System: the wall
// clock and the local zone rules. Tests pass a FixedSystem.
package caltime
