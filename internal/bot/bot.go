// Package bot holds the computer opponents.
package bot

import (
	"sync"

	"github.com/benbeisheim/chess-backend/internal/model"
	"golang.org/x/exp/rand"
)

// ChessBot picks a move for color on board. It must not modify board and
// reports false when color has no legal move.
type ChessBot interface {
	BestMove(board *model.Board, color model.Color) (model.Move, bool)
	Name() string
}

// New returns the bot registered under name ("greedy" or "random"),
// defaulting to the greedy opponent.
func New(name string, seed uint64) ChessBot {
	switch name {
	case "random":
		return NewRandomBot(seed)
	default:
		return NewOpponent(seed)
	}
}

// source is a seedable random source safe for concurrent use.
type source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSource(seed uint64) *source {
	return &source{rng: rand.New(rand.NewSource(seed))}
}

func (s *source) shuffle(pieces []*model.Piece) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(pieces), func(i, j int) {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	})
}

func (s *source) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

type RandomBot struct {
	src *source
}

func NewRandomBot(seed uint64) *RandomBot {
	return &RandomBot{src: newSource(seed)}
}

func (b *RandomBot) BestMove(board *model.Board, color model.Color) (model.Move, bool) {
	moves := []model.Move{}
	for _, p := range board.Pieces(color) {
		for _, to := range board.ValidMoves(p.Position) {
			moves = append(moves, model.Move{From: p.Position, To: to})
		}
	}
	if len(moves) == 0 {
		return model.Move{}, false
	}
	return moves[b.src.intn(len(moves))], true
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
