package adapter

// Field is one logical field and the keys it may arrive under, in order
// of preference. The backend has renamed fields across versions, so every
// key listed here is part of the compatibility surface.
type Field struct {
	Name string
	Keys []string
}

func field(name string, keys ...string) Field {
	return Field{Name: name, Keys: keys}
}

var (
	eventID          = field("event id", "id", "event_id", "eventId")
	taskID           = field("task id", "id", "task_id", "taskId")
	noteID           = field("note id", "id", "note_id", "noteId")
	calendarRef      = field("calendar id", "calendar_id", "calendarId")
	calendarID       = field("calendar id", "id", "calendar_id", "calendarId")
	calendarName     = field("calendar name", "name")
	titleField       = field("title", "title")
	descriptionField = field("description", "description")

	eventStart  = field("start", "start_at", "startAt", "start")
	eventEnd    = field("end", "end_at", "endAt", "end")
	eventAllDay = field("all-day flag", "is_all_day", "isAllDay", "all_day", "allDay")

	taskDue      = field("due", "due_at", "dueAt", "due")
	taskStatus   = field("status", "status", "state", "completed")
	taskPriority = field("priority", "priority")
	taskKind     = field("kind", "type", "kind")

	noteDate = field("date", "date")
	noteMemo = field("memo", "memo")

	accessToken  = field("access token", "accessToken", "access_token")
	refreshToken = field("refresh token", "refreshToken", "refresh_token")

	userID          = field("user id", "id", "user_id", "userId")
	userEmail       = field("email", "email")
	userDisplayName = field("display name", "displayName", "display_name")
	userRole        = field("role", "role")
	userPhotoURL    = field("photo url", "photoURL", "photoUrl", "photo_url")

	pageTotalElements = field("total elements", "totalElements", "total_elements")
	pageTotalPages    = field("total pages", "totalPages", "total_pages")
	pageNumber        = field("page number", "number")
	pageSize          = field("page size", "size")
)

// pageContentKeys are the keys a listing may wrap its records in, when it
// is not a bare array.
var pageContentKeys = []string{"content", "items"}
