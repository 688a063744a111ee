package handlers

import (
	"sync"

	"go.uber.org/zap"

	"numcom/server/network"
)

// ClientManager routes outgoing messages to joined connections by player id
type ClientManager struct {
	senders map[string]network.Sender
	mutex   sync.RWMutex
	logger  *zap.Logger
}

func NewClientManager(logger *zap.Logger) *ClientManager {
	return &ClientManager{
		senders: make(map[string]network.Sender),
		logger:  logger,
	}
}

// AddClient starts delivering messages for playerID to sender
func (cm *ClientManager) AddClient(playerID string, sender network.Sender) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.senders[playerID] = sender
}

func (cm *ClientManager) RemoveClient(playerID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.senders, playerID)
}

// SendTo queues msg for one player. Unknown ids are dropped.
func (cm *ClientManager) SendTo(playerID string, msg interface{}) {
	cm.mutex.RLock()
	sender, ok := cm.senders[playerID]
	cm.mutex.RUnlock()

	if !ok {
		cm.logger.Debug("dropping message for unknown client", zap.String("player_id", playerID))
		return
	}
	cm.deliver(playerID, sender, msg)
}

// BroadcastToAll queues msg for every joined player
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.fanOut("", msg)
}

// BroadcastToOthers queues msg for every joined player except excludePlayerID
func (cm *ClientManager) BroadcastToOthers(excludePlayerID string, msg interface{}) {
	cm.fanOut(excludePlayerID, msg)
}

// Count returns the number of joined connections
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.senders)
}

func (cm *ClientManager) fanOut(exclude string, msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, sender := range cm.senders {
		if exclude != "" && id == exclude {
			continue
		}
		cm.deliver(id, sender, msg)
	}
}

// deliver never blocks: a connection that cannot keep up closes itself
func (cm *ClientManager) deliver(playerID string, sender network.Sender, msg interface{}) {
	if err := sender.SendMessage(msg); err != nil {
		cm.logger.Warn("failed to queue message", zap.String("player_id", playerID), zap.Error(err))
	}
}
