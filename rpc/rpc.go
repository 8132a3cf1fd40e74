package rpc

import (
	"net"
	"net/rpc"

	"github.com/twobob/blockduel/logger"
	"github.com/twobob/blockduel/models"
	"github.com/twobob/blockduel/services"
)

// Server manages the RPC listener used by the stats dashboard.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService exposes leaderboard queries over net/rpc. Methods follow
// the net/rpc signature rules: exported, pointer reply, error return.
type StatsService struct {
	scores *services.ScoreService
}

// NewStatsService creates the RPC-facing stats service.
func NewStatsService(scores *services.ScoreService) *StatsService {
	return &StatsService{scores: scores}
}

type LeaderboardArgs struct {
	Limit int
}

type LeaderboardReply struct {
	Entries []models.ScoreEntry
}

func (svc *StatsService) Leaderboard(args *LeaderboardArgs, reply *LeaderboardReply) error {
	entries, err := svc.scores.Leaderboard(args.Limit)
	if err != nil {
		return err
	}
	reply.Entries = entries
	return nil
}

type PlayerStatsArgs struct {
	PlayerName string
}

type PlayerStatsReply struct {
	Stats *models.PlayerStats
}

func (svc *StatsService) PlayerStats(args *PlayerStatsArgs, reply *PlayerStatsReply) error {
	stats, err := svc.scores.PlayerStats(args.PlayerName)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}
