package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to IssueStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusResolved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusRejected, true},
		{StatusInProgress, StatusPending, true},
		{StatusResolved, StatusInProgress, true},
		{StatusResolved, StatusPending, false},
		{StatusResolved, StatusRejected, false},
		{StatusRejected, StatusPending, true},
		{StatusRejected, StatusResolved, false},
		{IssueStatus("archived"), StatusPending, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("category %s should be valid", c)
		}
	}
	for _, s := range Statuses {
		if !s.Valid() {
			t.Errorf("status %s should be valid", s)
		}
	}
	for _, p := range Priorities {
		if !p.Valid() {
			t.Errorf("priority %s should be valid", p)
		}
	}
	if IssueCategory("sports").Valid() || IssueStatus("closed").Valid() || IssuePriority("critical").Valid() {
		t.Fatal("unknown values must be invalid")
	}
	if !RoleAdmin.Valid() || Role("staff").Valid() {
		t.Fatal("unexpected role validity")
	}
}

func TestInvolves(t *testing.T) {
	student := "student-1"
	admin := "admin-1"
	issue := &Issue{StudentID: &student}
	if !issue.Involves(student) || issue.Involves(admin) || issue.Involves("") {
		t.Fatal("submitter-only issue should involve only the submitter")
	}
	issue.AssignedTo = &admin
	if !issue.Involves(admin) {
		t.Fatal("assignee should be involved")
	}
	if issue.SubmittedBy(admin) {
		t.Fatal("assignee is not the submitter")
	}
}

func TestCloneIsDeep(t *testing.T) {
	student := "student-1"
	rating := 4
	issue := &Issue{ID: "i1", StudentID: &student, Rating: &rating, Comments: []Comment{{ID: "c1"}}}
	clone := issue.Clone()

	*clone.StudentID = "other"
	*clone.Rating = 1
	clone.Comments[0].Text = "changed"
	clone.Comments = append(clone.Comments, Comment{ID: "c2"})

	if *issue.StudentID != "student-1" || *issue.Rating != 4 {
		t.Fatal("clone shares pointer fields with original")
	}
	if issue.Comments[0].Text != "" || len(issue.Comments) != 1 {
		t.Fatal("clone shares comments with original")
	}
}
