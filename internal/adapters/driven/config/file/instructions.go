package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
)

// Ensure InstructionStore implements the interface.
var _ driven.InstructionStore = (*InstructionStore)(nil)

// DefaultInstruction turns a meeting transcript into structured minutes.
//
//nolint:lll // Instruction content is intentionally long and should not be wrapped.
const DefaultInstruction = `命令
あなたは優秀なプロジェクトマネージャー兼書記です。提供された会議の文字起こしデータを分析し、以下のフォーマットに従って明確かつ構造化された議事録を作成してください。

出力フォーマットと記載ルール
1. 全体の目的
このミーティング（または記録）が何のために行われたのか、1〜2文で簡潔に定義してください。
最終的なゴールが何かを明記してください。
2. エグゼクティブサマリー（改善の経緯と詳細進捗）
会議全体の内容を、項目数を限定せずに可能な限り詳しく要約してください。
単なる結果の列挙ではなく、**「改善の流れ（どのような経緯でその結論に至ったか）」**が分かるように記載してください。
特に進捗に関しては、現状のステータスと変化点を漏らさず記述してください。
3. 重要な質疑応答・検収要件（会話形式）
「検収（承認・OKが出る基準）」や「仕様の確認」に関するやり取りを重点的に抽出してください。
誰が何を懸念し、どう回答されたかが分かるよう、以下の会話形式で記載してください。
Q（質問/懸念）: [具体的な質問内容]
A（回答/決定）: [回答内容および決定した検収基準]
4. 決定されたタスク（ToDo）
具体的なアクションアイテムを抽出してください。可能な限り担当者を明記してください。

5. 全体のスケジュール感
会話に出てきた期限、マイルストーン、次回の予定などを時系列で整理してください。
具体的な日付がない場合でも、「来週中」「○○の後」といった時間的な文脈を拾ってください。`

// instructionExts are tried in order when loading a named instruction.
var instructionExts = []string{".md", ".txt"}

// InstructionStore loads system instructions from user-editable files.
// The name "default" resolves to the configured instruction. Other names
// are looked up in the instruction directory, or read directly when they
// are paths to existing files.
//
// The directory is created lazily on first Load, not in the constructor.
type InstructionStore struct {
	mu       sync.RWMutex
	dir      string
	fallback string
	cache    map[string]string
	initOnce sync.Once
	initErr  error
}

// NewInstructionStore creates a file-based instruction store.
// If dir is empty, defaults to <user config dir>/notion-digest/instructions.
// An empty fallback uses DefaultInstruction.
func NewInstructionStore(dir, fallback string) (*InstructionStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "get config directory")
		}
		dir = filepath.Join(base, AppDirName, "instructions")
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultInstruction
	}

	return &InstructionStore{
		dir:      dir,
		fallback: fallback,
		cache:    make(map[string]string),
	}, nil
}

// Load returns the instruction for name. Results are cached until Reload.
func (s *InstructionStore) Load(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == driven.InstructionDefault {
		return s.fallback, nil
	}

	s.mu.RLock()
	if text, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return text, nil
	}
	s.mu.RUnlock()

	text, err := s.read(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[name] = text
	s.mu.Unlock()
	return text, nil
}

// Reload clears the cache, forcing fresh loads from disk.
func (s *InstructionStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the instruction directory path.
func (s *InstructionStore) Dir() string {
	return s.dir
}

func (s *InstructionStore) read(name string) (string, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return readInstruction(name)
	}

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return "", s.initErr
	}

	for _, ext := range instructionExts {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return readInstruction(path)
		}
	}
	return "", errors.WithHint(
		errors.Mark(errors.Newf("instruction %q not found in %s", name, s.dir), domain.ErrNotFound),
		"pass a file path or add "+name+".md to the instruction directory")
}

// initialise creates the instruction directory and a README.
func (s *InstructionStore) initialise() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.initErr = errors.Wrap(err, "create instruction directory")
		return
	}

	readme := filepath.Join(s.dir, "README.md")
	if _, err := os.Stat(readme); !os.IsNotExist(err) {
		return
	}
	content := `# notion-digest instructions

Each file here is a system instruction for the generation model.
Select one per run with --instruction NAME, where NAME is the file name
without its .md or .txt extension. "default" always means the configured
instruction (GEMINI_SYSTEM_INSTRUCTION or the built-in minutes format).
`
	if err := os.WriteFile(readme, []byte(content), 0600); err != nil {
		s.initErr = errors.Wrap(err, "create instruction README")
	}
}

func readInstruction(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read instruction %s", path)
	}
	text := strings.TrimSpace(UnescapeNewlines(string(data)))
	if text == "" {
		return "", errors.Mark(errors.Newf("instruction file %s is empty", path), domain.ErrConfiguration)
	}
	return text, nil
}
