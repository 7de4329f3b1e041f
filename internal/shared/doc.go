// Package shared holds helpers used across packages that belong to no single
// layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and builders for in-memory trip tables and CSV fixtures:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    table := testutil.NewTripTableBuilder(t, "chicago").
//	        AddStations("2017-01-02 08:00:00", "A", "B").
//	        Build()
//	    ...
//	    testutil.AssertLogContains(t, handler, slog.LevelDebug, "Table filtered")
//	}
package shared
