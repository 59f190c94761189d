package attendance

import "oza-attendance/backend/internal/entity"

var fieldColumns = map[entity.TimeField]string{
	entity.FieldStart: "start_time",
	entity.FieldEnd:   "end_time",
}

var fieldLabels = map[entity.TimeField]string{
	entity.FieldStart: "出勤",
	entity.FieldEnd:   "退勤",
}
