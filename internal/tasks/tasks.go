// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-21
// Last Modified: 2026-08-23

// Package tasks describes the test tasks the bot hands to runners. A task
// names one context to execute against one revision of one repository;
// runners pick tasks off a queue, so the records are plain JSON.
package tasks

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task is one queued test run.
type Task struct {
	ID          string            `json:"id"`
	Repo        string            `json:"repo"`
	Revision    string            `json:"revision"`
	Context     string            `json:"context"`
	PullRequest int               `json:"pull_request,omitempty"`
	RequestedAt time.Time         `json:"requested_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// New creates a task with a fresh ID and the current request time.
func New(repo, revision, context string) *Task {
	return &Task{
		ID:          uuid.NewString(),
		Repo:        repo,
		Revision:    revision,
		Context:     context,
		RequestedAt: time.Now().UTC(),
	}
}

// QueuePath returns the queue file path for a task, sharded by repository.
func (t *Task) QueuePath() string {
	return fmt.Sprintf("queue/%s/%s.json", t.Repo, t.ID)
}

// Marshal serializes a task to JSON.
func Marshal(task *Task) ([]byte, error) {
	return json.MarshalIndent(task, "", "  ")
}

// Unmarshal deserializes a task from JSON.
func Unmarshal(data []byte) (*Task, error) {
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, err
	}
	if task.ID == "" || task.Context == "" {
		return nil, fmt.Errorf("task record missing id or context")
	}
	return &task, nil
}

// Queue collects tasks during a run. Safe for concurrent producers.
type Queue struct {
	mu    sync.Mutex
	tasks []*Task
}

// Add appends a task.
func (q *Queue) Add(task *Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}

// Tasks returns the queued tasks in insertion order.
func (q *Queue) Tasks() []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*Task(nil), q.tasks...)
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
