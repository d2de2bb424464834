package api

// GraphQL documents for every operation of the backend contract. The
// field sets mirror what the server resolvers expose.

const getUserByTokenQuery = `
query GetUser($token: String) {
  getUser(token: $token) {
    id
    name
    username
    avatar {
      url
      fallback
    }
    status
  }
}`

const getUserByIDQuery = `
query GetUser($id: Int) {
  getUser(id: $id) {
    id
    name
    username
    avatar {
      url
      fallback
    }
    status
  }
}`

const getUserByUsernameQuery = `
query GetUser($username: String) {
  getUser(username: $username) {
    id
    name
    username
    avatar {
      url
      fallback
    }
    status
  }
}`

const getUsersQuery = `
query GetUsers {
  getUsers {
    id
    name
    username
    avatar {
      url
      fallback
    }
    status
  }
}`

const getChatsQuery = `
query GetChats($userId: Int) {
  getChats(userId: $userId) {
    id
    lastMessageId
    users
  }
}`

const getMessagesQuery = `
query GetMessages($usersIds: String) {
  getMessages(usersIds: $usersIds) {
    id
    message
    senderId
    receiverId
    sentAt
    status
  }
}`

const getMessageQuery = `
query GetMessage($id: Int!) {
  getMessage(id: $id) {
    id
    message
    senderId
    receiverId
    sentAt
    status
  }
}`

const loginQuery = `
query Login($email: String!, $password: String!) {
  login(email: $email, password: $password)
}`

const createUserMutation = `
mutation CreateUser(
  $name: String!
  $username: String!
  $email: String!
  $password: String!
  $avatarUrl: String!
  $avatarFallback: String!
) {
  createUser(
    name: $name
    username: $username
    email: $email
    password: $password
    avatarUrl: $avatarUrl
    avatarFallback: $avatarFallback
  ) {
    id
    name
    username
    avatar {
      url
      fallback
    }
    status
  }
}`

const switchUserStatusMutation = `
mutation SwitchUserStatus($id: Int!, $status: UserStatus!) {
  switchUserStatus(id: $id, status: $status) {
    id
    name
    username
    avatar {
      url
      fallback
    }
    status
  }
}`

const postMessageMutation = `
mutation PostMessage($message: String!, $senderId: Int!, $receiverId: Int!) {
  postMessage(message: $message, senderId: $senderId, receiverId: $receiverId) {
    id
    message
    senderId
    receiverId
    sentAt
    status
  }
}`

const readMessageMutation = `
mutation ReadMessage($id: Int!) {
  readMessage(id: $id) {
    id
    status
  }
}`

const changeUserActivityMutation = `
mutation ChangeUserActivity($senderId: Int!, $receiverId: Int!, $activity: UserActivity!) {
  changeUserActivity(senderId: $senderId, receiverId: $receiverId, activity: $activity) {
    senderId
    receiverId
    activity
  }
}`
