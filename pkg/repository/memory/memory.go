package memory

import (
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
)

// Memory is a process-local repository for development and tests
type Memory struct {
	task *taskRepository
	user *userRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		task: newTaskRepository(),
		user: newUserRepository(),
	}
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Close() error {
	return nil
}
