package pubsub

// TopicDuelShared carries model.DuelShared values published by the dashboard.
const TopicDuelShared = "duel-shared"
