// Package domain models FARS (Fatality Analysis Reporting System) accident data.
//
// # Data Source
//
// Accident records originate from the NHTSA Fatality Analysis Reporting System,
// the yearly census of fatal motor-vehicle crashes, distributed as one
// compressed CSV per reporting year
// (https://www.nhtsa.gov/research-data/fatality-analysis-reporting-system-fars).
// Files follow a fixed naming pattern:
//
//	accident_<year>.csv.bz2  →  e.g. accident_2013.csv.bz2
//
// [Year.Filename] is the single source of truth for this pattern. Fractional
// numeric year input is truncated toward zero by [ParseYear] ("2013.7" → 2013),
// so a filename is always formed from an integer year.
//
// # FARS Data Conventions
//
// Required columns (every accident table must carry all four; loading fails
// otherwise, see [ValidateAccidentColumns]):
//
//	MONTH     crash month, 1–12
//	STATE     state FIPS code (1 = Alabama … 56 = Wyoming)
//	LONGITUD  crash longitude in decimal degrees, negative west
//	LATITUDE  crash latitude in decimal degrees
//
// Coordinate sentinels:
//
//	FARS encodes unknown crash positions with out-of-range magic numbers rather
//	than empty cells: 999.9999 for longitude and 99.9999 for latitude. Any
//	longitude above 900 or latitude above 90 is treated as unknown by
//	[SanitizeCoordinates]: the cell becomes a missing marker and is excluded
//	from map extents and plotted points. No real position exceeds either bound;
//	the sentinels always do.
//
// Missing cells:
//
//	Empty CSV cells parse as missing markers, not zeros. A column keeps its
//	numeric type even when some of its cells are empty.
//
// # State FIPS Codes
//
// STATE holds the ANSI/FIPS numeric state code, the same coding the Census
// cartographic boundary shapefiles use in their STATEFP attribute; that is
// how rendered maps join accident rows to state outlines. The FIPS sequence
// has gaps (3, 7, 14, 43 and 52 are unassigned); a requested code that never
// appears in a table's STATE column is rejected with [InvalidStateError].
package domain
