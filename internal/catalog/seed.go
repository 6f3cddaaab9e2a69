package catalog

// Seed returns the demonstration data set, keyed by entity.
func Seed() map[string][]Record {
	return map[string][]Record{
		Students:  records(seedStudents),
		Lecturers: records(seedLecturers),
		Courses:   records(seedCourses),
		Rooms:     records(seedRooms),
		TimeSlots: records(seedTimeSlots),
		Schedule:  records(seedSchedule),
	}
}

func records[T Record](in []T) []Record {
	out := make([]Record, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

var seedStudents = []Student{
	{ID: "STU001", Name: "Ahmad Al-Khateeb", Major: "Computer Science", Year: 3, Email: "ahmad.k@psut.edu.jo"},
	{ID: "STU002", Name: "Sara Mansour", Major: "Software Engineering", Year: 2, Email: "sara.m@psut.edu.jo"},
	{ID: "STU003", Name: "Omar Hassan", Major: "Data Science", Year: 4, Email: "omar.h@psut.edu.jo"},
	{ID: "STU004", Name: "Layla Nasser", Major: "Computer Science", Year: 1, Email: "layla.n@psut.edu.jo"},
	{ID: "STU005", Name: "Khaled Yousef", Major: "Information Systems", Year: 3, Email: "khaled.y@psut.edu.jo"},
}

var seedLecturers = []Lecturer{
	{ID: "LEC001", Name: "Dr. Mohammad Saleh", Department: "Computer Science", Load: 12, Email: "m.saleh@psut.edu.jo"},
	{ID: "LEC002", Name: "Dr. Rania Ahmad", Department: "Software Engineering", Load: 15, Email: "r.ahmad@psut.edu.jo"},
	{ID: "LEC003", Name: "Prof. Yousef Kamal", Department: "Data Science", Load: 9, Email: "y.kamal@psut.edu.jo"},
	{ID: "LEC004", Name: "Dr. Hana Ibrahim", Department: "Information Systems", Load: 12, Email: "h.ibrahim@psut.edu.jo"},
}

var seedCourses = []Course{
	{Code: "CS101", Name: "Introduction to Programming", Credits: 3, Type: "Core", Sections: 3},
	{Code: "CS201", Name: "Data Structures", Credits: 3, Type: "Core", Sections: 2},
	{Code: "CS301", Name: "Algorithms", Credits: 3, Type: "Core", Sections: 2},
	{Code: "CS401", Name: "Machine Learning", Credits: 3, Type: "Elective", Sections: 1},
	{Code: "SE201", Name: "Software Engineering", Credits: 3, Type: "Core", Sections: 2},
	{Code: "DS301", Name: "Big Data Analytics", Credits: 3, Type: "Elective", Sections: 1},
}

var seedRooms = []Room{
	{ID: "R101", Building: "Building A", Capacity: 40, Type: "Lecture Hall"},
	{ID: "R102", Building: "Building A", Capacity: 30, Type: "Classroom"},
	{ID: "R201", Building: "Building B", Capacity: 25, Type: "Lab"},
	{ID: "R202", Building: "Building B", Capacity: 50, Type: "Lecture Hall"},
	{ID: "R301", Building: "Building C", Capacity: 20, Type: "Seminar Room"},
}

var seedTimeSlots = []TimeSlot{
	{ID: 1, Day: "Sunday", Start: "08:00", End: "09:30"},
	{ID: 2, Day: "Sunday", Start: "10:00", End: "11:30"},
	{ID: 3, Day: "Sunday", Start: "12:00", End: "13:30"},
	{ID: 4, Day: "Monday", Start: "08:00", End: "09:30"},
	{ID: 5, Day: "Monday", Start: "10:00", End: "11:30"},
	{ID: 6, Day: "Tuesday", Start: "08:00", End: "09:30"},
	{ID: 7, Day: "Tuesday", Start: "10:00", End: "11:30"},
	{ID: 8, Day: "Wednesday", Start: "08:00", End: "09:30"},
	{ID: 9, Day: "Thursday", Start: "08:00", End: "09:30"},
}

var seedSchedule = []ScheduleEntry{
	{ID: 1, Course: "CS101", Section: "A", Lecturer: "Dr. Mohammad Saleh", Room: "R202", Day: "Sunday", Time: "08:00-09:30", Students: 45},
	{ID: 2, Course: "CS201", Section: "A", Lecturer: "Dr. Rania Ahmad", Room: "R101", Day: "Sunday", Time: "10:00-11:30", Students: 38},
	{ID: 3, Course: "CS301", Section: "A", Lecturer: "Prof. Yousef Kamal", Room: "R102", Day: "Monday", Time: "08:00-09:30", Students: 28},
	{ID: 4, Course: "SE201", Section: "A", Lecturer: "Dr. Hana Ibrahim", Room: "R101", Day: "Monday", Time: "10:00-11:30", Students: 35},
	{ID: 5, Course: "CS401", Section: "A", Lecturer: "Prof. Yousef Kamal", Room: "R301", Day: "Tuesday", Time: "08:00-09:30", Students: 18},
	{ID: 6, Course: "DS301", Section: "A", Lecturer: "Dr. Mohammad Saleh", Room: "R201", Day: "Tuesday", Time: "10:00-11:30", Students: 22},
	{ID: 7, Course: "CS101", Section: "B", Lecturer: "Dr. Rania Ahmad", Room: "R202", Day: "Wednesday", Time: "08:00-09:30", Students: 42},
	{ID: 8, Course: "CS201", Section: "B", Lecturer: "Dr. Hana Ibrahim", Room: "R102", Day: "Thursday", Time: "08:00-09:30", Students: 30},
}
