package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
)

// fakeStore is an in-memory stand-in for the postgres store. It enforces the
// schema's unique constraints and rolls back failed transactions.
// Transactions are serialised, which mirrors the row lock on users.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data fakeData

	// lifecycleErr, when set, makes UpdateLifecycle fail.
	lifecycleErr error
}

type fakeData struct {
	users         map[string]*models.User
	teachers      map[string]*models.Teacher
	students      map[string]*models.Student
	admins        map[string]*models.Admin
	subjects      map[string]*models.Subject
	classes       map[string]*models.Class
	classStudents map[string]string // student id -> class id
	classSubjects map[string]*models.ClassSubject
	marks         map[string]*models.Mark
	absences      map[string]*models.Absence
	notifications map[string]*models.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: fakeData{
		users:         map[string]*models.User{},
		teachers:      map[string]*models.Teacher{},
		students:      map[string]*models.Student{},
		admins:        map[string]*models.Admin{},
		subjects:      map[string]*models.Subject{},
		classes:       map[string]*models.Class{},
		classStudents: map[string]string{},
		classSubjects: map[string]*models.ClassSubject{},
		marks:         map[string]*models.Mark{},
		absences:      map[string]*models.Absence{},
		notifications: map[string]*models.Notification{},
	}}
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

func (d fakeData) clone() fakeData {
	cs := make(map[string]string, len(d.classStudents))
	for k, v := range d.classStudents {
		cs[k] = v
	}
	return fakeData{
		users:         cloneMap(d.users),
		teachers:      cloneMap(d.teachers),
		students:      cloneMap(d.students),
		admins:        cloneMap(d.admins),
		subjects:      cloneMap(d.subjects),
		classes:       cloneMap(d.classes),
		classStudents: cs,
		classSubjects: cloneMap(d.classSubjects),
		marks:         cloneMap(d.marks),
		absences:      cloneMap(d.absences),
		notifications: cloneMap(d.notifications),
	}
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
}

// ===== REPOSITORY =====

type fakeRepository struct {
	store *fakeStore
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{store: newFakeStore()}
}

func (r *fakeRepository) User() repositories.UserRepository       { return fakeUsers{r.store} }
func (r *fakeRepository) Teacher() repositories.TeacherRepository { return fakeTeachers{r.store} }
func (r *fakeRepository) Student() repositories.StudentRepository { return fakeStudents{r.store} }
func (r *fakeRepository) Admin() repositories.AdminRepository     { return fakeAdmins{r.store} }
func (r *fakeRepository) Subject() repositories.SubjectRepository { return fakeSubjects{r.store} }
func (r *fakeRepository) Class() repositories.ClassRepository     { return fakeClasses{r.store} }
func (r *fakeRepository) Mark() repositories.MarkRepository       { return fakeMarks{r.store} }
func (r *fakeRepository) Absence() repositories.AbsenceRepository { return fakeAbsences{r.store} }
func (r *fakeRepository) Notification() repositories.NotificationRepository {
	return fakeNotifications{r.store}
}

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	r.store.mu.Lock()
	snapshot := r.store.data.clone()
	r.store.mu.Unlock()

	if err := fn(r); err != nil {
		r.store.mu.Lock()
		r.store.data = snapshot
		r.store.mu.Unlock()
		return err
	}
	return nil
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// snapshot returns a copy of the whole store for before/after comparisons.
func (r *fakeRepository) snapshot() fakeData {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.data.clone()
}

// ===== USERS =====

type fakeUsers struct{ s *fakeStore }

func (f fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.data.users[user.ID]; ok {
		return fmt.Errorf("create user: %w", repositories.ErrDuplicate)
	}
	for _, u := range f.s.data.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", repositories.ErrEmailTaken)
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	f.s.data.users[user.ID] = copyOf(user)
	return nil
}

func (f fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	u, ok := f.s.data.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	return copyOf(u), nil
}

func (f fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, u := range f.s.data.users {
		if u.Email == email {
			return copyOf(u), nil
		}
	}
	return nil, notFound("get user by email")
}

func (f fakeUsers) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	return f.GetByID(ctx, id)
}

func (f fakeUsers) UpdateLifecycle(ctx context.Context, id string, role models.UserRole, status models.UserStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if f.s.lifecycleErr != nil {
		return f.s.lifecycleErr
	}
	u, ok := f.s.data.users[id]
	if !ok {
		return notFound("update lifecycle")
	}
	u.Role, u.Status, u.UpdatedAt = role, status, time.Now().UTC()
	return nil
}

// ===== PROFILES =====

type fakeTeachers struct{ s *fakeStore }

func (f fakeTeachers) Create(ctx context.Context, teacher *models.Teacher) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, t := range f.s.data.teachers {
		if t.UserID == teacher.UserID {
			return fmt.Errorf("create teacher: %w", repositories.ErrProfileExists)
		}
	}
	f.s.data.teachers[teacher.ID] = copyOf(teacher)
	return nil
}

func (f fakeTeachers) withSubject(t *models.Teacher) *models.Teacher {
	c := copyOf(t)
	if c.SubjectID != nil {
		if sub, ok := f.s.data.subjects[*c.SubjectID]; ok {
			c.Subject = copyOf(sub)
		}
	}
	return c
}

func (f fakeTeachers) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	t, ok := f.s.data.teachers[id]
	if !ok {
		return nil, notFound("get teacher")
	}
	return f.withSubject(t), nil
}

func (f fakeTeachers) GetByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, t := range f.s.data.teachers {
		if t.UserID == userID {
			return f.withSubject(t), nil
		}
	}
	return nil, notFound("get teacher by user")
}

func (f fakeTeachers) Update(ctx context.Context, teacher *models.Teacher) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.data.teachers[teacher.ID]; !ok {
		return notFound("update teacher")
	}
	c := copyOf(teacher)
	c.Subject = nil
	f.s.data.teachers[teacher.ID] = c
	return nil
}

func (f fakeTeachers) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Teacher, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var all []*models.Teacher
	for _, t := range f.s.data.teachers {
		if matchesQuery(filters.Query, t.FirstName, t.LastName) {
			all = append(all, f.withSubject(t))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].LastName < all[j].LastName })
	return paginate(all, filters.Limit, filters.Offset), int64(len(all)), nil
}

type fakeStudents struct{ s *fakeStore }

func (f fakeStudents) Create(ctx context.Context, student *models.Student) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, st := range f.s.data.students {
		if st.StudentID == student.StudentID {
			return fmt.Errorf("create student: %w", repositories.ErrStudentCodeTaken)
		}
		if st.UserID == student.UserID {
			return fmt.Errorf("create student: %w", repositories.ErrProfileExists)
		}
	}
	f.s.data.students[student.ID] = copyOf(student)
	return nil
}

func (f fakeStudents) GetByID(ctx context.Context, id string) (*models.Student, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	st, ok := f.s.data.students[id]
	if !ok {
		return nil, notFound("get student")
	}
	return copyOf(st), nil
}

func (f fakeStudents) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, st := range f.s.data.students {
		if st.UserID == userID {
			return copyOf(st), nil
		}
	}
	return nil, notFound("get student by user")
}

func (f fakeStudents) GetByIDs(ctx context.Context, ids []string) ([]*models.Student, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	out := []*models.Student{}
	for _, id := range ids {
		if st, ok := f.s.data.students[id]; ok {
			out = append(out, copyOf(st))
		}
	}
	return out, nil
}

func (f fakeStudents) Update(ctx context.Context, student *models.Student) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	existing, ok := f.s.data.students[student.ID]
	if !ok {
		return notFound("update student")
	}
	c := copyOf(student)
	c.StudentID = existing.StudentID
	f.s.data.students[student.ID] = c
	return nil
}

func (f fakeStudents) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Student, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var all []*models.Student
	for _, st := range f.s.data.students {
		if matchesQuery(filters.Query, st.FirstName, st.LastName, st.StudentID) {
			all = append(all, copyOf(st))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StudentID < all[j].StudentID })
	return paginate(all, filters.Limit, filters.Offset), int64(len(all)), nil
}

type fakeAdmins struct{ s *fakeStore }

func (f fakeAdmins) Create(ctx context.Context, admin *models.Admin) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, a := range f.s.data.admins {
		if a.UserID == admin.UserID {
			return fmt.Errorf("create admin: %w", repositories.ErrProfileExists)
		}
	}
	f.s.data.admins[admin.ID] = copyOf(admin)
	return nil
}

func (f fakeAdmins) GetByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, a := range f.s.data.admins {
		if a.UserID == userID {
			return copyOf(a), nil
		}
	}
	return nil, notFound("get admin by user")
}

// ===== SCHOOL =====

type fakeSubjects struct{ s *fakeStore }

func (f fakeSubjects) Create(ctx context.Context, subject *models.Subject) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, sub := range f.s.data.subjects {
		if sub.Name == subject.Name {
			return fmt.Errorf("create subject: %w", repositories.ErrDuplicate)
		}
	}
	subject.CreatedAt = time.Now().UTC()
	f.s.data.subjects[subject.ID] = copyOf(subject)
	return nil
}

func (f fakeSubjects) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	sub, ok := f.s.data.subjects[id]
	if !ok {
		return nil, notFound("get subject")
	}
	return copyOf(sub), nil
}

func (f fakeSubjects) List(ctx context.Context) ([]*models.Subject, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	out := []*models.Subject{}
	for _, sub := range f.s.data.subjects {
		out = append(out, copyOf(sub))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeSubjects) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.data.subjects[id]; !ok {
		return notFound("delete subject")
	}
	delete(f.s.data.subjects, id)
	return nil
}

type fakeClasses struct{ s *fakeStore }

func classSubjectKey(classID, subjectID string) string { return classID + "/" + subjectID }

func (f fakeClasses) Create(ctx context.Context, class *models.Class) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, c := range f.s.data.classes {
		if c.Name == class.Name {
			return fmt.Errorf("create class: %w", repositories.ErrDuplicate)
		}
	}
	class.CreatedAt = time.Now().UTC()
	f.s.data.classes[class.ID] = copyOf(class)
	return nil
}

func (f fakeClasses) GetByID(ctx context.Context, id string) (*models.Class, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	c, ok := f.s.data.classes[id]
	if !ok {
		return nil, notFound("get class")
	}
	return copyOf(c), nil
}

func (f fakeClasses) List(ctx context.Context) ([]*models.Class, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	out := []*models.Class{}
	for _, c := range f.s.data.classes {
		out = append(out, copyOf(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeClasses) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.data.classes[id]; !ok {
		return notFound("delete class")
	}
	delete(f.s.data.classes, id)
	for st, c := range f.s.data.classStudents {
		if c == id {
			delete(f.s.data.classStudents, st)
		}
	}
	for k, cs := range f.s.data.classSubjects {
		if cs.ClassID == id {
			delete(f.s.data.classSubjects, k)
		}
	}
	return nil
}

func (f fakeClasses) AddStudents(ctx context.Context, classID string, studentIDs []string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, id := range studentIDs {
		if current, ok := f.s.data.classStudents[id]; ok && current != classID {
			return fmt.Errorf("add students: %w", repositories.ErrAlreadyInClass)
		}
	}
	for _, id := range studentIDs {
		f.s.data.classStudents[id] = classID
	}
	return nil
}

func (f fakeClasses) RemoveStudent(ctx context.Context, classID, studentID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if f.s.data.classStudents[studentID] != classID {
		return notFound("remove student")
	}
	delete(f.s.data.classStudents, studentID)
	return nil
}

func (f fakeClasses) ListStudents(ctx context.Context, classID string) ([]*models.Student, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	out := []*models.Student{}
	for st, c := range f.s.data.classStudents {
		if c == classID {
			out = append(out, copyOf(f.s.data.students[st]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (f fakeClasses) CountStudents(ctx context.Context, classID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var n int64
	for _, c := range f.s.data.classStudents {
		if c == classID {
			n++
		}
	}
	return n, nil
}

func (f fakeClasses) GetByStudentID(ctx context.Context, studentID string) (*models.Class, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	classID, ok := f.s.data.classStudents[studentID]
	if !ok {
		return nil, notFound("get class of student")
	}
	return copyOf(f.s.data.classes[classID]), nil
}

func (f fakeClasses) AssignSubject(ctx context.Context, cs *models.ClassSubject) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	f.s.data.classSubjects[classSubjectKey(cs.ClassID, cs.SubjectID)] = &models.ClassSubject{
		ClassID:   cs.ClassID,
		SubjectID: cs.SubjectID,
		TeacherID: cs.TeacherID,
	}
	return nil
}

func (f fakeClasses) RemoveSubject(ctx context.Context, classID, subjectID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	key := classSubjectKey(classID, subjectID)
	if _, ok := f.s.data.classSubjects[key]; !ok {
		return notFound("remove class subject")
	}
	delete(f.s.data.classSubjects, key)
	return nil
}

func (f fakeClasses) preload(cs *models.ClassSubject) *models.ClassSubject {
	c := copyOf(cs)
	if class, ok := f.s.data.classes[c.ClassID]; ok {
		c.Class = copyOf(class)
	}
	if sub, ok := f.s.data.subjects[c.SubjectID]; ok {
		c.Subject = copyOf(sub)
	}
	if c.TeacherID != nil {
		if t, ok := f.s.data.teachers[*c.TeacherID]; ok {
			c.Teacher = copyOf(t)
		}
	}
	return c
}

func (f fakeClasses) ListSubjects(ctx context.Context, classID string) ([]*models.ClassSubject, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	out := []*models.ClassSubject{}
	for _, cs := range f.s.data.classSubjects {
		if cs.ClassID == classID {
			out = append(out, f.preload(cs))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
	return out, nil
}

func (f fakeClasses) ListByTeacher(ctx context.Context, teacherID string) ([]*models.ClassSubject, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	out := []*models.ClassSubject{}
	for _, cs := range f.s.data.classSubjects {
		if cs.TeacherID != nil && *cs.TeacherID == teacherID {
			out = append(out, f.preload(cs))
		}
	}
	return out, nil
}

func (f fakeClasses) GetTeacherAssignment(ctx context.Context, classID, teacherID, subjectID string) (*models.ClassSubject, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, cs := range f.s.data.classSubjects {
		if cs.ClassID == classID && cs.SubjectID == subjectID && cs.TeacherID != nil && *cs.TeacherID == teacherID {
			return f.preload(cs), nil
		}
	}
	return nil, notFound("get teacher assignment")
}

// ===== GRADEBOOK =====

func matchesGrade(f repositories.GradeFilters, studentID, teacherID, subjectID string) bool {
	if len(f.StudentIDs) > 0 {
		found := false
		for _, id := range f.StudentIDs {
			if id == studentID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.TeacherID != nil && *f.TeacherID != teacherID {
		return false
	}
	if f.SubjectID != nil && *f.SubjectID != subjectID {
		return false
	}
	return true
}

type fakeMarks struct{ s *fakeStore }

func (f fakeMarks) Create(ctx context.Context, mark *models.Mark) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	mark.CreatedAt = time.Now().UTC()
	f.s.data.marks[mark.ID] = copyOf(mark)
	return nil
}

func (f fakeMarks) GetByID(ctx context.Context, id string) (*models.Mark, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	m, ok := f.s.data.marks[id]
	if !ok {
		return nil, notFound("get mark")
	}
	return copyOf(m), nil
}

func (f fakeMarks) Update(ctx context.Context, mark *models.Mark) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	m, ok := f.s.data.marks[mark.ID]
	if !ok {
		return notFound("update mark")
	}
	m.Value, m.Description, m.Date = mark.Value, mark.Description, mark.Date
	return nil
}

func (f fakeMarks) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.data.marks[id]; !ok {
		return notFound("delete mark")
	}
	delete(f.s.data.marks, id)
	return nil
}

func (f fakeMarks) List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Mark, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	out := []*models.Mark{}
	for _, m := range f.s.data.marks {
		if matchesGrade(filters, m.StudentID, m.TeacherID, m.SubjectID) {
			out = append(out, copyOf(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type fakeAbsences struct{ s *fakeStore }

func (f fakeAbsences) Create(ctx context.Context, absence *models.Absence) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	absence.CreatedAt = time.Now().UTC()
	f.s.data.absences[absence.ID] = copyOf(absence)
	return nil
}

func (f fakeAbsences) GetByID(ctx context.Context, id string) (*models.Absence, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	a, ok := f.s.data.absences[id]
	if !ok {
		return nil, notFound("get absence")
	}
	return copyOf(a), nil
}

func (f fakeAbsences) Update(ctx context.Context, absence *models.Absence) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	a, ok := f.s.data.absences[absence.ID]
	if !ok {
		return notFound("update absence")
	}
	a.IsMotivated, a.Description, a.Date = absence.IsMotivated, absence.Description, absence.Date
	return nil
}

func (f fakeAbsences) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.data.absences[id]; !ok {
		return notFound("delete absence")
	}
	delete(f.s.data.absences, id)
	return nil
}

func (f fakeAbsences) List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Absence, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	out := []*models.Absence{}
	for _, a := range f.s.data.absences {
		if matchesGrade(filters, a.StudentID, a.TeacherID, a.SubjectID) {
			out = append(out, copyOf(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type fakeNotifications struct{ s *fakeStore }

func (f fakeNotifications) Create(ctx context.Context, n *models.Notification) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.data.notifications[n.ID]; ok {
		return fmt.Errorf("create notification: %w", repositories.ErrDuplicate)
	}
	if _, ok := f.s.data.students[n.StudentID]; !ok {
		return fmt.Errorf("create notification: %w", repositories.ErrForeignKey)
	}
	n.CreatedAt = time.Now().UTC()
	f.s.data.notifications[n.ID] = copyOf(n)
	return nil
}

func (f fakeNotifications) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	n, ok := f.s.data.notifications[id]
	if !ok {
		return nil, notFound("get notification")
	}
	return copyOf(n), nil
}

func (f fakeNotifications) ListByStudent(ctx context.Context, studentID string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var all []*models.Notification
	for _, n := range f.s.data.notifications {
		if n.StudentID == studentID && (!filters.UnreadOnly || !n.IsRead) {
			all = append(all, copyOf(n))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return paginate(all, filters.Limit, filters.Offset), int64(len(all)), nil
}

func (f fakeNotifications) MarkRead(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	n, ok := f.s.data.notifications[id]
	if !ok {
		return notFound("mark notification read")
	}
	n.IsRead = true
	return nil
}

func (f fakeNotifications) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.data.notifications[id]; !ok {
		return notFound("delete notification")
	}
	delete(f.s.data.notifications, id)
	return nil
}

// ===== HELPERS =====

func matchesQuery(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
