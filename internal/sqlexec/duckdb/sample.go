package duckdb

// SampleSchema mirrors the student-records demo database: three joined
// tables used by the bundled dataset and the integration examples.
func SampleSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS Students (
			StudentID INTEGER PRIMARY KEY,
			Name VARCHAR NOT NULL,
			Age INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS Marks (
			StudentID INTEGER,
			Math INTEGER,
			Science INTEGER,
			English INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS Attendance (
			StudentID INTEGER,
			AttendancePercentage DOUBLE
		)`,
		`INSERT INTO Students VALUES
			(1, 'Asha', 19), (2, 'Bruno', 17), (3, 'Chen', 20),
			(4, 'Dara', 18), (5, 'Elif', 21)`,
		`INSERT INTO Marks VALUES
			(1, 91, 84, 77), (2, 68, 72, 80), (3, 85, 90, 88),
			(4, 74, 69, 92), (5, 96, 88, 79)`,
		`INSERT INTO Attendance VALUES
			(1, 96.5), (2, 81.0), (3, 92.25), (4, 88.75), (5, 99.0)`,
	}
}
