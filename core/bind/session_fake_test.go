// core/bind/session_fake_test.go
// 测试用内存远程会话，模拟远程文件系统和常用命令

package bind

import (
	"fmt"
	"strings"

	"BindBridge/core/remote"
)

// fakeSession 内存中的远程会话实现
// files 模拟远程文件系统，overrides 按命令前缀覆盖默认应答
type fakeSession struct {
	files     map[string]string
	overrides map[string]*remote.Result
	history   []string
	closed    bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		files:     make(map[string]string),
		overrides: make(map[string]*remote.Result),
	}
}

func (s *fakeSession) override(prefix string, res *remote.Result) {
	s.overrides[prefix] = res
}

func (s *fakeSession) ranCommand(prefix string) bool {
	for _, cmd := range s.history {
		if strings.HasPrefix(cmd, prefix) {
			return true
		}
	}
	return false
}

func (s *fakeSession) Run(command string) (*remote.Result, error) {
	s.history = append(s.history, command)

	for prefix, res := range s.overrides {
		if strings.HasPrefix(command, prefix) {
			return res, nil
		}
	}

	switch {
	case strings.HasPrefix(command, "cat "):
		path := strings.TrimSpace(strings.TrimPrefix(command, "cat "))
		if content, ok := s.files[path]; ok {
			return &remote.Result{Stdout: content}, nil
		}
		return &remote.Result{
			Stderr:   fmt.Sprintf("cat: %s: No such file or directory", path),
			ExitCode: 1,
		}, nil

	case strings.HasPrefix(command, "test -f "):
		path := strings.Fields(strings.TrimPrefix(command, "test -f "))[0]
		if _, ok := s.files[path]; ok {
			return &remote.Result{Stdout: "exists\n"}, nil
		}
		return &remote.Result{ExitCode: 1}, nil

	case strings.HasPrefix(command, "named-checkzone "):
		return &remote.Result{Stdout: "zone loaded serial 1\nOK\n"}, nil

	case strings.HasPrefix(command, "named-checkconf"):
		return &remote.Result{}, nil

	case strings.HasPrefix(command, "sudo rndc reload"):
		return &remote.Result{Stdout: "zone reload up-to-date\n"}, nil

	case strings.HasPrefix(command, "sudo sh -c 'cat "):
		inner := command[strings.Index(command, "'")+1 : strings.LastIndex(command, "'")]
		parts := strings.SplitN(inner, ">>", 2)
		src := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[0]), "cat"))
		dst := strings.TrimSpace(parts[1])
		s.files[dst] += s.files[src]
		delete(s.files, src)
		return &remote.Result{}, nil

	case strings.HasPrefix(command, "sudo mv "):
		fields := strings.Fields(command)
		s.files[fields[3]] = s.files[fields[2]]
		delete(s.files, fields[2])
		return &remote.Result{}, nil

	case strings.HasPrefix(command, "sudo cp -p "):
		fields := strings.Fields(command)
		s.files[fields[4]] = s.files[fields[3]]
		return &remote.Result{}, nil

	case strings.HasPrefix(command, "rm -f "), strings.HasPrefix(command, "sudo rm -f "):
		fields := strings.Fields(command)
		delete(s.files, fields[len(fields)-1])
		return &remote.Result{}, nil

	default:
		return &remote.Result{}, nil
	}
}

func (s *fakeSession) Upload(data []byte, remotePath string) error {
	s.files[remotePath] = string(data)
	return nil
}

func (s *fakeSession) ReadFile(remotePath string) ([]byte, error) {
	content, ok := s.files[remotePath]
	if !ok {
		return nil, fmt.Errorf("%w: %s", remote.ErrFileNotFound, remotePath)
	}
	return []byte(content), nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}
